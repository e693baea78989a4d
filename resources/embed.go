// Package resources holds files compiled into the binary.
package resources

import _ "embed"

// WebhookFixture is the sample callback batch replayed by the webhook test
// endpoint when no file is named.
//
//go:embed webhook.json
var WebhookFixture []byte
