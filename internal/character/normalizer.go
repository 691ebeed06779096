// Package character converts externally-sourced character card documents
// into the canonical Character record. Several incompatible community export
// formats exist in the wild (chara_card_v2, Tavern, Character.AI, Pygmalion
// exports, generic bot dumps); normalization resolves each attribute through
// a fixed priority-ordered list of candidate fields, first match wins.
package character

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	apperrors "retro-ai-online/backend/internal/errors"
	"retro-ai-online/backend/internal/model"
	"retro-ai-online/backend/internal/store"
)

// DefaultName is used when no candidate field yields a character name.
const DefaultName = "Unknown Character"

// fieldRule is one candidate source for an attribute. Key is looked up on
// the root document, or on its nested "data" object when fromData is set.
// Only non-empty string values match; anything else falls through to the
// next rule.
type fieldRule struct {
	key      string
	fromData bool
}

// Priority tables, one per canonical attribute. Order is load-bearing: real
// files carry several candidate fields at once and the earliest present one
// must win.
var (
	nameRules = []fieldRule{
		{key: "name"},
		{key: "char_name"},
		{key: "name", fromData: true},
		{key: "bot_name"},
		{key: "character_name"},
	}
	avatarRules = []fieldRule{
		{key: "avatar"},
		{key: "avatar_uri"},
		{key: "img"},
		{key: "avatar", fromData: true},
		{key: "image"},
	}
	descriptionRules = []fieldRule{
		{key: "description"},
		{key: "description", fromData: true},
		{key: "char_description"},
		{key: "summary"},
	}
	personalityRules = []fieldRule{
		{key: "personality"},
		{key: "char_persona"},
		{key: "personality", fromData: true},
		{key: "persona"},
	}
	firstMessageRules = []fieldRule{
		{key: "first_message"},
		{key: "char_greeting"},
		{key: "first_mes"},
		{key: "greeting"},
		{key: "first_message", fromData: true},
		{key: "first_mes", fromData: true},
		{key: "welcome_message"},
		{key: "opening"},
		{key: "introduction"},
	}
	exampleMessagesRules = []fieldRule{
		{key: "example_messages"},
		{key: "example_dialogue"},
		{key: "mes_example"},
		{key: "example_messages", fromData: true},
		{key: "mes_example", fromData: true},
		{key: "examples"},
		{key: "sample_dialogue"},
	}
)

// Parse decodes raw JSON text and normalizes it into a complete Character.
// The returned record always has every attribute populated (defaults
// applied) and a freshly generated id.
func Parse(raw []byte) (model.Character, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.Character{}, fmt.Errorf("%w: no character data provided", apperrors.ErrParse)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return model.Character{}, fmt.Errorf("%w: invalid JSON format: %s", apperrors.ErrParse, err.Error())
	}
	return FromValue(value)
}

// FromValue normalizes an already-decoded JSON document. A nil root is a
// parse failure; any other non-object root yields the all-defaults record,
// matching the tolerant behavior real card files rely on.
func FromValue(value any) (model.Character, error) {
	if value == nil {
		return model.Character{}, fmt.Errorf("%w: no character data provided", apperrors.ErrParse)
	}
	doc, _ := value.(map[string]any)

	character := model.Character{
		ID:        store.NewID(),
		Name:      DefaultName,
		CreatedAt: time.Now(),
	}

	// chara_card_v2 short-circuits the whole search: only its data object
	// populates the result, no fallback field is consulted.
	if spec, _ := doc["spec"].(string); spec == "chara_card_v2" {
		if card, ok := doc["data"].(map[string]any); ok {
			if v := stringField(card, "name"); v != "" {
				character.Name = v
			}
			character.Description = stringField(card, "description")
			character.Personality = stringField(card, "personality")
			if v := stringField(card, "avatar"); v != "" {
				character.Avatar = &v
			}
			character.FirstMessage = stringField(card, "first_mes")
			character.ExampleMessages = stringField(card, "mes_example")
			return character, nil
		}
	}

	// Some export formats wrap the card one level down.
	if nested, ok := doc["character"].(map[string]any); ok {
		doc = nested
	}
	dataField, _ := doc["data"].(map[string]any)

	if v := resolve(doc, dataField, nameRules); v != "" {
		character.Name = v
	}
	if v := resolve(doc, dataField, avatarRules); v != "" {
		character.Avatar = &v
	}
	character.Description = resolve(doc, dataField, descriptionRules)
	character.Personality = resolve(doc, dataField, personalityRules)
	character.FirstMessage = resolve(doc, dataField, firstMessageRules)
	character.ExampleMessages = resolve(doc, dataField, exampleMessagesRules)

	return character, nil
}

// resolve walks the rule list in order and returns the first non-empty
// string candidate, or "".
func resolve(doc, dataField map[string]any, rules []fieldRule) string {
	for _, rule := range rules {
		source := doc
		if rule.fromData {
			source = dataField
		}
		if v := stringField(source, rule.key); v != "" {
			return v
		}
	}
	return ""
}

func stringField(source map[string]any, key string) string {
	if source == nil {
		return ""
	}
	v, _ := source[key].(string)
	return v
}
