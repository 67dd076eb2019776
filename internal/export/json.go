package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
)

// EventsJSON serializes an event list with 2-space indentation, matching the
// download artifact contract. An empty or nil list serializes as the literal
// [] (never null) so an empty export is still a valid file.
func EventsJSON(events []engine.CelebrationEvent) ([]byte, error) {
	if len(events) == 0 {
		return []byte(config.EmptyJSONArray), nil
	}
	data, err := json.MarshalIndent(events, "", config.JSONIndent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrExportEncode, err)
	}
	return data, nil
}

// JSONFilename names the export artifact after the reference date.
func JSONFilename(referenceDate time.Time) string {
	return fmt.Sprintf(config.ExportJSONPattern, referenceDate.Format(config.DateFormatFullDash))
}

// WriteFile writes an export artifact atomically: the payload goes to a
// temporary sibling first and is renamed into place, so readers never see a
// partial file.
func WriteFile(path string, data []byte) error {
	tmp := path + config.TmpSuffix
	if err := os.WriteFile(tmp, data, config.FilePermUserRW); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
