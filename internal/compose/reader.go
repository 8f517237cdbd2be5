package compose

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvResult reports one service's environment as declared in the compose
// file. Missing file or unknown service are data, not Go errors: the
// dashboard renders whatever is reportable.
type EnvResult struct {
	Present           bool              `json:"present"`
	Path              string            `json:"path"`
	Error             string            `json:"error,omitempty"`
	Service           string            `json:"service,omitempty"`
	Found             bool              `json:"found"`
	Environment       map[string]string `json:"environment"`
	AvailableServices []string          `json:"available_services,omitempty"`
}

// envBlock tolerates both compose environment syntaxes:
//
//	environment:           environment:
//	  KEY: value             - KEY=value
//	                         - BARE_KEY
type envBlock map[string]string

func (e *envBlock) UnmarshalYAML(value *yaml.Node) error {
	out := map[string]string{}
	switch value.Kind {
	case yaml.MappingNode:
		var m map[string]*string
		if err := value.Decode(&m); err != nil {
			// Values can be numbers or booleans; retry loosely.
			var loose map[string]any
			if err2 := value.Decode(&loose); err2 != nil {
				return err
			}
			for k, v := range loose {
				if v == nil {
					out[k] = ""
				} else {
					out[k] = fmt.Sprintf("%v", v)
				}
			}
			break
		}
		for k, v := range m {
			if v == nil {
				out[k] = ""
			} else {
				out[k] = *v
			}
		}
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		for _, it := range items {
			k, v, _ := strings.Cut(it, "=")
			k = strings.TrimSpace(k)
			if k != "" {
				out[k] = v
			}
		}
	case 0: // absent
	default:
		return fmt.Errorf("unsupported environment node kind %d", value.Kind)
	}
	*e = out
	return nil
}

type composeService struct {
	Environment envBlock `yaml:"environment"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

// ReadServiceEnv reads the compose file and returns the environment of one
// service, plus the list of services it could have asked for.
func ReadServiceEnv(path, service string) EnvResult {
	res := EnvResult{Path: path, Service: service, Environment: map[string]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Error = "compose file not found"
		} else {
			res.Error = err.Error()
		}
		return res
	}
	res.Present = true

	var doc composeFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		res.Error = fmt.Sprintf("failed to parse yaml: %v", err)
		return res
	}

	available := make([]string, 0, len(doc.Services))
	for name := range doc.Services {
		available = append(available, name)
	}
	sort.Strings(available)
	res.AvailableServices = available

	svc, ok := doc.Services[service]
	if !ok {
		return res
	}
	res.Found = true
	if svc.Environment != nil {
		res.Environment = svc.Environment
	}
	return res
}
