// Package yaml loads site profiles from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/newsdigest"
	yamlv3 "gopkg.in/yaml.v3"
)

// LoadSite reads a site profile from path. Fields absent from the file keep
// the values of newsdigest.DefaultSite.
func LoadSite(path string) (newsdigest.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return newsdigest.Site{}, fmt.Errorf("read site profile: %w", err)
	}
	return ParseSite(data)
}

// ParseSite decodes a site profile over newsdigest.DefaultSite.
// Unknown keys are rejected.
func ParseSite(data []byte) (newsdigest.Site, error) {
	site := newsdigest.DefaultSite()

	dec := yamlv3.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil && !errors.Is(err, io.EOF) {
		return newsdigest.Site{}, newsdigest.Errorf(newsdigest.EINVALID, "invalid site profile: %v", err)
	}

	if err := site.Validate(); err != nil {
		return newsdigest.Site{}, err
	}
	return site, nil
}

// MarshalSite encodes a site profile, for writing a starting point to edit.
func MarshalSite(site newsdigest.Site) ([]byte, error) {
	return yamlv3.Marshal(site)
}
