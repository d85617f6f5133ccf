package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is one named connection in a profiles file: everything needed to
// point the client at a specific store without repeating flags.
type Profile struct {
	// Backend selects the client implementation: "aws" or "minio".
	Backend string `yaml:"backend"`

	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	PathStyle bool   `yaml:"path_style"`

	// AccessKey and SecretKey are static credentials, typically only used
	// for local or self-hosted stores.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads a named-connection profiles file.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profiles file not found: %s", path)
		}
		return nil, fmt.Errorf("read profiles file: %w", err)
	}
	return parseProfiles(data)
}

func parseProfiles(data []byte) (map[string]Profile, error) {
	if len(data) == 0 {
		return nil, errors.New("profiles file is empty")
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}
	if len(f.Profiles) == 0 {
		return nil, errors.New("profiles file defines no profiles")
	}

	for name, p := range f.Profiles {
		switch p.Backend {
		case "", "aws", "minio":
		default:
			return nil, fmt.Errorf("profile %q: unknown backend %q", name, p.Backend)
		}
		if (p.AccessKey != "") != (p.SecretKey != "") {
			return nil, fmt.Errorf("profile %q: access key and secret key must be set together", name)
		}
	}
	return f.Profiles, nil
}
