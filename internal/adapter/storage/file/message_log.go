package file

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"mailgun-admin/internal/core/domain"

	"github.com/google/uuid"
)

// MessageLog keeps a JSON copy of each outgoing message.
type MessageLog struct {
	dir string
	now func() time.Time
}

// NewMessageLog creates a message log under dir. The directory is created
// on demand.
func NewMessageLog(dir string) *MessageLog {
	return &MessageLog{dir: dir, now: time.Now}
}

// Write implements ports.MessageLogger.
func (l *MessageLog) Write(_ context.Context, msg domain.OutgoingMessage) error {
	if err := ensureDir(l.dir, true); err != nil {
		return err
	}
	content, err := json.MarshalIndent(msg, "", "    ")
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	name := fmt.Sprintf("%s_%s.json", l.now().UTC().Format(fileTimeLayout), uuid.NewString())
	return writeOnce(filepath.Join(l.dir, name), content)
}
