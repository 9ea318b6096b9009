package icebox

import (
	"time"
)

// ManifestFile is the manifest name under the IceBox root
const ManifestFile = "icebox.yaml"

// Manifest lists staged organs
type Manifest struct {
	Entries []*Entry `yaml:"entries"`
}

// Entry records one staged organ
type Entry struct {
	Target        string    `yaml:"target"`
	Path          string    `yaml:"path"`
	Files         []string  `yaml:"files"`
	Methods       []string  `yaml:"methods"`
	Fields        []string  `yaml:"fields,omitempty"`
	RequiredTypes []string  `yaml:"requiredTypes,omitempty"`
	Issues        []string  `yaml:"issues,omitempty"`
	Hash          string    `yaml:"hash"`
	Donor         *Donor    `yaml:"donor,omitempty"`
	StagedAt      time.Time `yaml:"stagedAt"`
}

// Donor records where a staged organ came from
type Donor struct {
	Kind        string `yaml:"kind"`
	Root        string `yaml:"root"`
	Origin      string `yaml:"origin,omitempty"`
	Project     string `yaml:"project,omitempty"`
	Coordinates string `yaml:"coordinates,omitempty"`
	File        string `yaml:"file"`
}

// Lookup returns the entry of a target key
func (m *Manifest) Lookup(target string) *Entry {
	for _, entry := range m.Entries {
		if entry.Target == target {
			return entry
		}
	}
	return nil
}

// Put adds or replaces the entry with the same target
func (m *Manifest) Put(entry *Entry) {
	for i, candidate := range m.Entries {
		if candidate.Target == entry.Target {
			m.Entries[i] = entry
			return
		}
	}
	m.Entries = append(m.Entries, entry)
}
