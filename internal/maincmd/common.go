package maincmd

import "os"

// readSource reads a single source file's bytes for one of the pipeline
// commands; split out since every subcommand reads its input the same way.
// The os.ReadFile error is returned unchanged.
func readSource(name string) ([]byte, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return b, nil
}
