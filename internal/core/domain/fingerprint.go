package domain

import (
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable digest of the stage descriptor as it would
// execute under the given cache root. Two runs skip a stage only when the
// recorded fingerprint matches, so any change to the working directory,
// environment or command table forces re-execution.
func (s *Stage) Fingerprint(cacheRoot string) string {
	d := xxhash.New()

	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
	}

	write("v1", s.Name, s.Repo, cacheRoot)

	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write("env", k, s.Env[k])
	}

	for _, argv := range s.Build {
		write(append([]string{"build", strconv.Itoa(len(argv))}, argv...)...)
	}
	for _, argv := range s.Test {
		write(append([]string{"test", strconv.Itoa(len(argv))}, argv...)...)
	}
	if len(s.Install) > 0 {
		write(append([]string{"install"}, s.Install...)...)
	}

	sum := d.Sum(nil)
	return hex.EncodeToString(sum)
}
