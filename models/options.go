package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyOption = errors.New("option text is empty")
	ErrOptionIndex = errors.New("option index out of range")
	ErrLastOption  = errors.New("a selection question must keep at least one option")
)

// OptionList is the ordered option sequence edited in the question dialog.
// Every operation returns a new list and leaves the receiver untouched.
type OptionList []string

// Add appends a trimmed, non-blank option.
func (l OptionList) Add(opt string) (OptionList, error) {
	opt = strings.TrimSpace(opt)
	if opt == "" {
		return l, ErrEmptyOption
	}
	out := append(OptionList{}, l...)
	return append(out, opt), nil
}

// Update replaces the option at index i.
func (l OptionList) Update(i int, opt string) (OptionList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrOptionIndex
	}
	out := append(OptionList{}, l...)
	out[i] = opt
	return out, nil
}

// Remove deletes the option at index i. Removing the only option of a
// selection-type question is refused with ErrLastOption.
func (l OptionList) Remove(i int, t QuestionType) (OptionList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrOptionIndex
	}
	if t.RequiresOptions() && len(l) == 1 {
		return l, ErrLastOption
	}
	out := make(OptionList, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), nil
}
