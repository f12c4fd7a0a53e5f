package eventpublisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ceevent "github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"
)

// BuildEventBody renders event as a structured-mode CloudEvent and returns the body and the
// resolved CloudEvent type.
func BuildEventBody(event Event) ([]byte, string, error) {
	provider := normalizeProvider(event.Provider)
	if provider == "" {
		return nil, "", fmt.Errorf("provider is required")
	}

	id := strings.TrimSpace(event.ID)
	if id == "" {
		id = uuid.NewString()
	}
	source := strings.TrimSpace(event.Source)
	if source == "" {
		source = "supportdeck/cli"
	}
	resolvedType := normalizeType(provider, event.Type)

	ce := ceevent.New()
	ce.SetID(id)
	ce.SetSource(source)
	ce.SetType(resolvedType)
	ce.SetTime(time.Now().UTC())

	data := event.Data
	if data == nil {
		data = map[string]any{}
	}
	if err := ce.SetData(ceevent.ApplicationJSON, data); err != nil {
		return nil, "", fmt.Errorf("encode event data: %w", err)
	}
	if err := ce.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid event: %w", err)
	}

	body, err := json.Marshal(ce)
	if err != nil {
		return nil, "", fmt.Errorf("marshal event: %w", err)
	}
	return body, resolvedType, nil
}
