package repository

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/viant/afs"
)

// Pom represents the key information from a Maven POM file
type Pom struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Name       string `xml:"name"`
	Parent     *struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"parent"`
	SourceDirectory string `xml:"build>sourceDirectory"`
}

// Coordinates returns groupId:artifactId:version, inheriting group and version from the parent
func (p *Pom) Coordinates() string {
	group, version := p.GroupID, p.Version
	if p.Parent != nil {
		if group == "" {
			group = p.Parent.GroupID
		}
		if version == "" {
			version = p.Parent.Version
		}
	}
	return group + ":" + p.ArtifactID + ":" + version
}

// LoadPom decodes a pom.xml
func LoadPom(ctx context.Context, fs afs.Service, URL string) (*Pom, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	pom := &Pom{}
	if err = xml.Unmarshal(data, pom); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return pom, nil
}
