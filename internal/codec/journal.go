package codec

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

// ErrNoLoadout is returned when a journal holds no Loadout event
var ErrNoLoadout = errors.New("journal has no Loadout event")

const loadoutEvent = "Loadout"

// journal members that describe the event, not the build
var journalEnvelope = []string{"timestamp", "event"}

// JournalCodec handles game journal files: one JSON event per line. Parse
// keeps the build of the last Loadout event, Export writes one.
type JournalCodec struct {
	now func() time.Time
}

// NewJournalCodec creates a new journal codec
func NewJournalCodec() *JournalCodec {
	return &JournalCodec{now: time.Now}
}

// Format returns the codec format identifier
func (c *JournalCodec) Format() string {
	return "journal"
}

// Parse imports the most recent loadout from a journal
func (c *JournalCodec) Parse(r io.Reader) (*domain.ShipObject, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)

	var last *domain.ShipObject
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var head struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal([]byte(line), &head); err != nil {
			return nil, fmt.Errorf("failed to parse journal line %d: %w", lineNo, err)
		}
		if head.Event != loadoutEvent {
			continue
		}

		ship, err := decodeShip([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("failed to parse Loadout on line %d: %w", lineNo, err)
		}
		for _, key := range journalEnvelope {
			delete(ship.Extra, key)
		}
		if len(ship.Extra) == 0 {
			ship.Extra = nil
		}
		last = ship
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	if last == nil {
		return nil, ErrNoLoadout
	}
	return last, nil
}

// Export writes the build as a single Loadout event line
func (c *JournalCodec) Export(ship *domain.ShipObject, w io.Writer) error {
	data, err := json.Marshal(ship)
	if err != nil {
		return fmt.Errorf("failed to encode Loadout: %w", err)
	}

	doc, err := domain.DecodeValue(data)
	if err != nil {
		return fmt.Errorf("failed to encode Loadout: %w", err)
	}
	event, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("failed to encode Loadout: build is not an object")
	}
	event["timestamp"] = c.now().UTC().Format(time.RFC3339)
	event["event"] = loadoutEvent

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode Loadout: %w", err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}
