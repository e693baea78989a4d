package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mailgun-admin/internal/core/domain"
)

// ErrDirUnavailable is returned when the log directory does not exist and
// may not be created.
var ErrDirUnavailable = errors.New("log directory unavailable")

// fileTimeLayout names artifacts by UTC second.
const fileTimeLayout = "20060102-150405"

// PayloadLog writes one JSON file per inbound webhook call. Files are never
// rewritten.
type PayloadLog struct {
	dir       string
	createDir bool
}

// NewPayloadLog creates a payload log under dir. createDir allows the
// directory to be created on first write.
func NewPayloadLog(dir string, createDir bool) *PayloadLog {
	return &PayloadLog{dir: dir, createDir: createDir}
}

// Dir returns the target directory.
func (l *PayloadLog) Dir() string {
	return l.dir
}

// Record implements ports.PayloadAuditor.
func (l *PayloadLog) Record(_ context.Context, rec *domain.WebhookPayloadRecord) error {
	if err := ensureDir(l.dir, l.createDir); err != nil {
		return err
	}

	content, err := payloadDocument(rec)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s_%s.json", rec.ReceivedAt.UTC().Format(fileTimeLayout), rec.BatchID)
	return writeOnce(filepath.Join(l.dir, name), content)
}

// payloadDocument merges the captured headers into the body under "@headers".
// Bodies that are not JSON objects are kept under "@body".
func payloadDocument(rec *domain.WebhookPayloadRecord) ([]byte, error) {
	doc := map[string]any{}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body, &obj); err == nil && obj != nil {
		for k, v := range obj {
			doc[k] = v
		}
	} else if json.Valid(rec.Body) {
		doc["@body"] = json.RawMessage(rec.Body)
	} else {
		doc["@body"] = string(rec.Body)
	}
	doc["@headers"] = rec.Headers

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

func ensureDir(dir string, create bool) error {
	if dir == "" {
		return ErrDirUnavailable
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrDirUnavailable, dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) || !create {
		return fmt.Errorf("%w: %s", ErrDirUnavailable, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	return nil
}

func writeOnce(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write log file: %w", err)
	}
	return f.Close()
}
