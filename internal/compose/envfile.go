package compose

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvFileResult reports an env-file mutation.
type EnvFileResult struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path"`
	Updated int    `json:"updated"`
}

// ReadEnvFile loads the flat KEY=VALUE file docker compose interpolates
// from. A missing file is an empty mapping, not an error: the stack may
// never have been configured.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return env, nil
}

// WriteEnvFile merges updates into the existing file and rewrites it.
// Existing keys not named in updates are preserved.
func WriteEnvFile(path string, updates map[string]string) EnvFileResult {
	res := EnvFileResult{Path: path}

	current, err := ReadEnvFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	for k, v := range updates {
		current[k] = v
	}
	if err := godotenv.Write(current, path); err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Updated = len(updates)
	return res
}
