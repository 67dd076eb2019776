package roster

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/emersion/go-vcard"
)

//go:embed staff.json
var embeddedRoster []byte

// SourceConfig contains all parameters required to load a roster.
type SourceConfig struct {
	Mode   string // config.SourceModeEmbedded, SourceModeLocal or SourceModeWeb
	Format string // config.SourceFormatJSON or SourceFormatVCard; inferred from path when empty
	Path   string // Absolute path to the local roster file
	URL    string // Remote roster URL
	User   string // HTTP Basic Auth username
	Pass   string // HTTP Basic Auth password
}

// Loader acquires and normalizes roster data from a configured source.
type Loader struct {
	Fetcher Fetcher // Interface for network abstraction.
	Options NormalizeOptions
}

// rosterDocument matches the wrapped form some exports use.
type rosterDocument struct {
	Staff []RawStaffRecord `json:"staff"`
}

// Load executes the acquisition, parsing and normalization pipeline.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig) ([]StaffRecord, error) {
	start := time.Now()

	format, err := detectFormat(cfg)
	if err != nil {
		return nil, err
	}

	log := slog.With(
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyMode, cfg.Mode,
		config.LogKeyFormat, format,
	)
	log.InfoContext(ctx, config.MsgRosterLoading)

	reader, err := l.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []RawStaffRecord
	switch format {
	case config.SourceFormatVCard:
		raw, err = decodeVCards(ctx, reader)
	default:
		raw, err = decodeJSON(reader)
	}
	if err != nil {
		return nil, err
	}

	records := Normalize(raw, l.Options)

	withBday := 0
	for _, r := range records {
		if r.HasBirthDate {
			withBday++
		}
	}
	log.Info(config.MsgRosterLoaded,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(records)),
			slog.Int(config.LogKeyFound, withBday),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	return records, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (l *Loader) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeEmbedded, "":
		return io.NopCloser(bytes.NewReader(embeddedRoster)), nil
	case config.SourceModeLocal:
		if cfg.Path == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.Path)
	case config.SourceModeWeb:
		if cfg.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, cfg.URL, cfg.User, cfg.Pass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// detectFormat resolves the payload format from the config, falling back to
// the file extension and finally to JSON. An explicitly configured format
// must be a known one; silent fallback would hide a misconfiguration.
func detectFormat(cfg SourceConfig) (string, error) {
	switch cfg.Format {
	case config.SourceFormatJSON, config.SourceFormatVCard:
		return cfg.Format, nil
	case "":
	default:
		return "", fmt.Errorf("%s: %q", config.ErrFormatUnsupport, cfg.Format)
	}
	ext := strings.ToLower(filepath.Ext(cfg.Path))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(cfg.URL))
	}
	if ext == config.ExtVCF || ext == config.ExtVCard {
		return config.SourceFormatVCard, nil
	}
	return config.SourceFormatJSON, nil
}

// decodeJSON accepts either a bare array of records or the wrapped
// {"staff": [...]} document form.
func decodeJSON(r io.Reader) ([]RawStaffRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []RawStaffRecord
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
		}
		return raw, nil
	}

	var doc rosterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRosterDecode, err)
	}
	return doc.Staff, nil
}

// decodeVCards converts a vCard stream into raw staff records.
// Malformed cards are skipped to maximize data recovery.
func decodeVCards(ctx context.Context, r io.Reader) ([]RawStaffRecord, error) {
	decoder := vcard.NewDecoder(r)
	var raw []RawStaffRecord

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyError, err)
			continue
		}

		rec := RawStaffRecord{}

		// Name Strategy: FN (Formatted) > N (Structured) > normalizer fallback
		if fn := card.Get(config.VCardFN); fn != nil {
			rec.Name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			rec.Name = n.Value
		}

		if org := card.Get(config.VCardORG); org != nil {
			rec.Department = org.Value
		}
		if title := card.Get(config.VCardTITLE); title != nil {
			rec.Position = title.Value
		}
		if note := card.Get(config.VCardNOTE); note != nil {
			rec.Notes = note.Value
		}
		if bday := card.Get(config.VCardBDAY); bday != nil {
			rec.BirthDate = bday.Value
		}

		raw = append(raw, rec)
	}

	return raw, nil
}
