package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/floatwin/internal/platform"
)

// ActionKind is what picking an item does.
type ActionKind string

const (
	ActionEnable      ActionKind = "enable"
	ActionDisable     ActionKind = "disable"
	ActionForceResize ActionKind = "force"
	ActionResize      ActionKind = "resize"
)

// Action is a parsed launcher action.
type Action struct {
	Kind ActionKind
	Size platform.Size
}

func (a Action) String() string {
	switch a.Kind {
	case ActionForceResize, ActionResize:
		return string(a.Kind) + ":" + a.Size.String()
	default:
		return string(a.Kind)
	}
}

// ParseAction parses the String form of an Action, e.g. "force:1920x1080".
func ParseAction(s string) (Action, error) {
	kind, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	switch ActionKind(kind) {
	case ActionEnable, ActionDisable:
		if hasArg {
			return Action{}, fmt.Errorf("action %q takes no argument", kind)
		}
		return Action{Kind: ActionKind(kind)}, nil
	case ActionForceResize, ActionResize:
		size, err := platform.ParseSize(arg)
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", kind, err)
		}
		if !size.Valid() {
			return Action{}, fmt.Errorf("action %q: width and height must be > 0", kind)
		}
		return Action{Kind: ActionKind(kind), Size: size}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
}

// BuildItems lists the toggle first and then one force resize per preset.
// The preset matching current is marked active.
func BuildItems(floating bool, current platform.Size, presets []platform.Size) []Item {
	items := make([]Item, 0, len(presets)+1)
	if floating {
		items = append(items, Item{Label: "Disable floating window", Action: Action{Kind: ActionDisable}})
	} else {
		items = append(items, Item{Label: "Enable floating window", Action: Action{Kind: ActionEnable}})
	}
	for _, p := range presets {
		items = append(items, Item{
			Label:  "Resize to " + p.String(),
			Action: Action{Kind: ActionForceResize, Size: p},
			Active: floating && p == current,
		})
	}
	return items
}
