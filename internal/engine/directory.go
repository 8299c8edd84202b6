package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-growth/internal/config"
)

// SyncConfig contains all parameters required to perform a directory sync.
type SyncConfig struct {
	Mode            string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath       string // Absolute path to the .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string // HTTP Basic Auth Username
	WebPass         string // HTTP Basic Auth Password
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D")
}

// ChildProfile is one child of the directory.
type ChildProfile struct {
	// ID is the backend child identifier (vCard UID), or a stable hash when
	// the card has none.
	ID        string
	Name      string
	BirthDate time.Time
	Gender    Gender
}

// Key returns the session cache key of the child.
func (c ChildProfile) Key() ChildKey {
	return ChildKey{ChildID: c.ID, Gender: c.Gender}
}

// AgeInDays returns the age of the child on the calendar day of now.
func (c ChildProfile) AgeInDays(now time.Time) int {
	// Whole calendar days, counted in UTC so DST shifts do not matter.
	birth := time.Date(c.BirthDate.Year(), c.BirthDate.Month(), c.BirthDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(birth).Hours() / 24)
	return max(0, days)
}

// Directory loads child profiles from a local vCard file or a remote address.
type Directory struct {
	Fetcher VCardFetcher
}

// Load reads the configured source and returns the children found.
func (d *Directory) Load(ctx context.Context, cfg SyncConfig) ([]ChildProfile, error) {
	reader, err := d.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	return ParseDirectory(ctx, reader)
}

// acquireStream opens the appropriate data source based on configuration.
func (d *Directory) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if d.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return d.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// ParseDirectory decodes a vCard stream. Cards without a complete birth date
// are ignored and malformed cards are skipped.
func ParseDirectory(ctx context.Context, r io.Reader) ([]ChildProfile, error) {
	decoder := vcard.NewDecoder(r)
	total := 0
	var children []ChildProfile

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompDirectory,
				config.LogKeyError, err)
			continue
		}
		total++

		bday := card.Get(vcard.FieldBirthday)
		if bday == nil || bday.Value == "" {
			continue
		}
		birthDate, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompDirectory,
				config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(vcard.FieldFormattedName); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(vcard.FieldName); n != nil && n.Value != "" {
			name = n.Value
		}

		id := strings.TrimSpace(card.Value(vcard.FieldUID))
		if id == "" {
			input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
			hash := sha256.Sum256([]byte(input))
			id = fmt.Sprintf("%x", hash[:config.UIDHashLength])
		}

		children = append(children, ChildProfile{
			ID:        id,
			Name:      name,
			BirthDate: birthDate,
			Gender:    parseGender(card),
		})
	}

	slog.Info(config.MsgDirectoryLoaded,
		config.LogKeyComponent, config.CompDirectory,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyCards, total),
			slog.Int(config.LogKeyChildren, len(children)),
		),
	)
	return children, nil
}

// parseGender reads the sex component of GENDER. Anything but F is treated
// as the default population.
func parseGender(card vcard.Card) Gender {
	if sex, _ := card.Gender(); sex == vcard.SexFemale {
		return GenderFemale
	}
	return Gender(config.DefaultGender)
}

// parseDate handles the full-date vCard formats. A birth date without a year
// cannot place a child on a growth curve.
func parseDate(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}
