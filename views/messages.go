package views

import (
	"fmt"

	"golang.org/x/text/language"
)

type MsgKey string

const (
	MsgInvalidCredentials MsgKey = "invalid_credentials"
	MsgEmailRequired      MsgKey = "email_required"
	MsgEmailInvalid       MsgKey = "email_invalid"
	MsgEmailInUse         MsgKey = "email_in_use"
	MsgPasswordRequired   MsgKey = "password_required"
	MsgPasswordTooShort   MsgKey = "password_too_short"
	MsgPasswordWeak       MsgKey = "password_weak"
	MsgPasswordCommon     MsgKey = "password_common"
	MsgPasswordMismatch   MsgKey = "password_mismatch"
	MsgPasswordUnchanged  MsgKey = "password_unchanged"
	MsgCurrentPassword    MsgKey = "current_password_required"
	MsgPasswordChanged    MsgKey = "password_changed"
	MsgNameRequired       MsgKey = "name_required"
	MsgLoginFailed        MsgKey = "login_failed"
	MsgRegisterFailed     MsgKey = "register_failed"
	MsgRegistered         MsgKey = "registered"
	MsgNetwork            MsgKey = "network"
	MsgTitleRequired      MsgKey = "title_required"
	MsgFormCreated        MsgKey = "form_created"
	MsgFormDeleted        MsgKey = "form_deleted"
	MsgFormSaved          MsgKey = "form_saved"
	MsgQuestionText       MsgKey = "question_text_required"
	MsgOptionsRequired    MsgKey = "options_required"
	MsgOptionEmpty        MsgKey = "option_empty"
	MsgLastOption         MsgKey = "last_option"
	MsgQuestionSaved      MsgKey = "question_saved"
	MsgQuestionDeleted    MsgKey = "question_deleted"
	MsgFillRequired       MsgKey = "fill_required"
	MsgResponseSent       MsgKey = "response_sent"
	MsgResponseDeleted    MsgKey = "response_deleted"
	MsgQuestionMissing    MsgKey = "question_missing"
	MsgAnonymous          MsgKey = "anonymous"
	MsgProfileSaved       MsgKey = "profile_saved"
	MsgAccountDeleted     MsgKey = "account_deleted"
	MsgLoadFailed         MsgKey = "load_failed"
	MsgNotOwner           MsgKey = "not_owner"
)

var catalogs = map[language.Tag]map[MsgKey]string{
	language.English: {
		MsgInvalidCredentials: "Wrong email or password",
		MsgEmailRequired:      "Email is required",
		MsgEmailInvalid:       "Enter a valid email address",
		MsgEmailInUse:         "This email is already in use",
		MsgPasswordRequired:   "Password is required",
		MsgPasswordTooShort:   "Password must be at least %d characters",
		MsgPasswordWeak:       "Password must contain at least 3 of: uppercase, lowercase, digit, special character",
		MsgPasswordCommon:     "This password is too common",
		MsgPasswordMismatch:   "Passwords do not match",
		MsgPasswordUnchanged:  "New password must differ from the current one",
		MsgCurrentPassword:    "Current password is required",
		MsgPasswordChanged:    "Password changed, please log in again",
		MsgNameRequired:       "Name is required",
		MsgLoginFailed:        "Login failed",
		MsgRegisterFailed:     "Registration failed",
		MsgRegistered:         "Account created",
		MsgNetwork:            "Cannot reach the server",
		MsgTitleRequired:      "Title is required",
		MsgFormCreated:        "Form created",
		MsgFormDeleted:        "Form deleted",
		MsgFormSaved:          "Form saved",
		MsgQuestionText:       "Question text is required",
		MsgOptionsRequired:    "Add at least one option",
		MsgOptionEmpty:        "Option cannot be empty",
		MsgLastOption:         "A question must keep at least one option",
		MsgQuestionSaved:      "Question saved",
		MsgQuestionDeleted:    "Question deleted",
		MsgFillRequired:       "Please fill all required fields",
		MsgResponseSent:       "Response submitted",
		MsgResponseDeleted:    "Response deleted",
		MsgQuestionMissing:    "Question not available",
		MsgAnonymous:          "Anonymous",
		MsgProfileSaved:       "Profile updated",
		MsgAccountDeleted:     "Account deleted",
		MsgLoadFailed:         "Could not load data",
		MsgNotOwner:           "Only the owner can edit this form",
	},
	language.Estonian: {
		MsgInvalidCredentials: "Vale e-post või parool",
		MsgEmailRequired:      "E-post on kohustuslik",
		MsgEmailInvalid:       "Sisesta korrektne e-posti aadress",
		MsgEmailInUse:         "See e-post on juba kasutusel",
		MsgPasswordRequired:   "Parool on kohustuslik",
		MsgPasswordTooShort:   "Parool peab olema vähemalt %d tähemärki",
		MsgPasswordWeak:       "Parool peab sisaldama vähemalt 3 järgmistest: suurtäht, väiketäht, number, erimärk",
		MsgPasswordCommon:     "See parool on liiga levinud",
		MsgPasswordMismatch:   "Paroolid ei ühti",
		MsgPasswordUnchanged:  "Uus parool peab erinema praegusest",
		MsgCurrentPassword:    "Praegune parool on kohustuslik",
		MsgPasswordChanged:    "Parool muudetud, logi uuesti sisse",
		MsgNameRequired:       "Nimi on kohustuslik",
		MsgLoginFailed:        "Sisselogimine ebaõnnestus",
		MsgRegisterFailed:     "Registreerimine ebaõnnestus",
		MsgRegistered:         "Konto loodud",
		MsgNetwork:            "Serveriga ei saa ühendust",
		MsgTitleRequired:      "Pealkiri on kohustuslik",
		MsgFormCreated:        "Vorm loodud",
		MsgFormDeleted:        "Vorm kustutatud",
		MsgFormSaved:          "Vorm salvestatud",
		MsgQuestionText:       "Küsimuse tekst on kohustuslik",
		MsgOptionsRequired:    "Lisa vähemalt üks valik",
		MsgOptionEmpty:        "Valik ei tohi olla tühi",
		MsgLastOption:         "Küsimusel peab olema vähemalt üks valik",
		MsgQuestionSaved:      "Küsimus salvestatud",
		MsgQuestionDeleted:    "Küsimus kustutatud",
		MsgFillRequired:       "Palun täida kõik kohustuslikud väljad",
		MsgResponseSent:       "Vastus saadetud",
		MsgResponseDeleted:    "Vastus kustutatud",
		MsgQuestionMissing:    "Küsimus pole saadaval",
		MsgAnonymous:          "Anonüümne",
		MsgProfileSaved:       "Profiil uuendatud",
		MsgAccountDeleted:     "Konto kustutatud",
		MsgLoadFailed:         "Andmeid ei õnnestunud laadida",
		MsgNotOwner:           "Ainult omanik saab seda vormi muuta",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Estonian})

// Messages resolves message keys in one locale.
type Messages struct {
	tag   language.Tag
	table map[MsgKey]string
}

// NewMessages picks the closest supported catalogue for locale, e.g. "et-EE"
// resolves to Estonian and anything unknown to English.
func NewMessages(locale string) *Messages {
	tag := language.English
	if locale != "" {
		want, err := language.Parse(locale)
		if err == nil {
			_, idx, conf := matcher.Match(want)
			if conf != language.No {
				tag = []language.Tag{language.English, language.Estonian}[idx]
			}
		}
	}
	return &Messages{tag: tag, table: catalogs[tag]}
}

// Locale returns the base language code, "en" or "et".
func (m *Messages) Locale() string {
	base, _ := m.tag.Base()
	return base.String()
}

// T returns the message for key, formatted with args when given.
func (m *Messages) T(key MsgKey, args ...any) string {
	s, ok := m.table[key]
	if !ok {
		s, ok = catalogs[language.English][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

func msgOrDefault(m *Messages) *Messages {
	if m == nil {
		return NewMessages("en")
	}
	return m
}
