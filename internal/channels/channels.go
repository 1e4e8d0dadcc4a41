// Package channels defines the registry of distribution channels a report
// can target. The registry is static for the process lifetime; its order
// drives keyboard rendering order.
package channels

import "github.com/samber/lo"

// DefaultNames is the built-in channel list, used when configuration does
// not override it.
var DefaultNames = []string{"Telegram", "Facebook", "WhatsApp", "Viber"}

// Registry is an ordered, immutable set of channel names.
type Registry struct {
	names []string
}

// NewRegistry builds a registry from the given names, dropping empties and
// duplicates while preserving first-seen order. An empty input falls back to
// DefaultNames.
func NewRegistry(names []string) *Registry {
	cleaned := lo.Filter(names, func(n string, _ int) bool { return n != "" })
	cleaned = lo.Uniq(cleaned)
	if len(cleaned) == 0 {
		cleaned = append([]string(nil), DefaultNames...)
	}
	return &Registry{names: cleaned}
}

// Names returns channel names in rendering order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Contains reports whether name is a registered channel.
func (r *Registry) Contains(name string) bool {
	return lo.Contains(r.names, name)
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	return len(r.names)
}
