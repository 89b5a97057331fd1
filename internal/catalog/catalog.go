// Package catalog is the read-only channel, publisher and placement
// delivery-spec dataset, loaded once at start.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultDataset []byte

// Entry is a code and its display name.
type Entry struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Placement is a bookable product and its delivery specifications.
type Placement struct {
	Code         string   `yaml:"code" json:"code"`
	Name         string   `yaml:"name" json:"name"`
	Channel      string   `yaml:"channel" json:"channel"`
	States       []string `yaml:"states,omitempty" json:"states,omitempty"`
	Format       string   `yaml:"format,omitempty" json:"format,omitempty"`
	Dimensions   string   `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
	PhysicalSize string   `yaml:"physicalSize,omitempty" json:"physicalSize,omitempty"`
	FileFormat   string   `yaml:"fileFormat,omitempty" json:"fileFormat,omitempty"`
	SpotLength   string   `yaml:"spotLength,omitempty" json:"spotLength,omitempty"`
}

// Publisher is a media owner, the channels it sells and where.
type Publisher struct {
	Code       string      `yaml:"code" json:"code"`
	Name       string      `yaml:"name" json:"name"`
	Channels   []string    `yaml:"channels" json:"channels"`
	States     []string    `yaml:"states" json:"states"`
	Placements []Placement `yaml:"placements" json:"-"`
}

type dataset struct {
	Version    string      `yaml:"version"`
	Channels   []Entry     `yaml:"channels"`
	States     []Entry     `yaml:"states"`
	Publishers []Publisher `yaml:"publishers"`
}

type publisherKey struct{ channel, state string }

type placementKey struct{ channel, state, publisher string }

// Catalog answers keyed lookups over an immutable dataset. Safe for concurrent use.
type Catalog struct {
	version        string
	channelNames   map[string]string
	stateNames     map[string]string
	publisherNames map[string]string
	publishers     map[publisherKey][]Publisher
	placements     map[placementKey][]Placement
}

// Load reads the dataset at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultDataset
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", path, err)
		}
		data = b
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("version", c.version).
		Int("publishers", len(c.publisherNames)).
		Msg("catalog: dataset loaded")
	return c, nil
}

// Parse builds a Catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if ds.Version == "" {
		return nil, fmt.Errorf("parsing catalog: missing version")
	}

	c := &Catalog{
		version:        ds.Version,
		channelNames:   map[string]string{},
		stateNames:     map[string]string{},
		publisherNames: map[string]string{},
		publishers:     map[publisherKey][]Publisher{},
		placements:     map[placementKey][]Placement{},
	}
	for _, e := range ds.Channels {
		c.channelNames[strings.ToLower(e.Code)] = e.Name
	}
	for _, e := range ds.States {
		c.stateNames[strings.ToUpper(e.Code)] = e.Name
	}

	for _, p := range ds.Publishers {
		if _, dup := c.publisherNames[p.Code]; dup {
			return nil, fmt.Errorf("parsing catalog: duplicate publisher %q", p.Code)
		}
		c.publisherNames[p.Code] = p.Name
		for _, ch := range p.Channels {
			for _, st := range p.States {
				k := publisherKey{strings.ToLower(ch), strings.ToUpper(st)}
				c.publishers[k] = append(c.publishers[k], p)
			}
		}
		for _, pl := range p.Placements {
			states := pl.States
			if len(states) == 0 {
				states = p.States
			}
			for _, st := range states {
				k := placementKey{strings.ToLower(pl.Channel), strings.ToUpper(st), p.Code}
				c.placements[k] = append(c.placements[k], pl)
			}
		}
	}

	for k := range c.publishers {
		list := c.publishers[k]
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return c, nil
}

// Version returns the dataset version.
func (c *Catalog) Version() string { return c.version }

// Publishers returns the publishers selling a channel in a state, by name.
func (c *Catalog) Publishers(channel, state string) []Publisher {
	return append([]Publisher{}, c.publishers[publisherKey{strings.ToLower(channel), strings.ToUpper(state)}]...)
}

// Placements returns a publisher's placements for a channel in a state.
func (c *Catalog) Placements(channel, state, publisher string) []Placement {
	return append([]Placement{}, c.placements[placementKey{strings.ToLower(channel), strings.ToUpper(state), publisher}]...)
}

// ChannelName returns the display name of a channel code, or the code itself.
func (c *Catalog) ChannelName(code string) string {
	if name, ok := c.channelNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// StateName returns the display name of a state code, or the code itself.
func (c *Catalog) StateName(code string) string {
	if name, ok := c.stateNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// PublisherName returns the display name of a publisher code, or the code itself.
func (c *Catalog) PublisherName(code string) string {
	if name, ok := c.publisherNames[code]; ok {
		return name
	}
	return code
}
