package views

import (
	"errors"

	"github.com/vnkhanh/forms-app/client"
)

// errorText picks the banner text for a failed call: a localized network
// message, the backend's own message, or fallback.
func (m *Messages) errorText(err error, fallback MsgKey) string {
	if k, ok := client.KindOf(err); ok && k == client.KindNetwork {
		return m.T(MsgNetwork)
	}
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return m.T(fallback)
}
