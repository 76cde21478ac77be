//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Loads the named level once and prints the batching report.
func (Run) Level(name string) error {
	fmt.Printf("Run level %s...\n", name)
	if _, err := executeCmd("go", withArgs("run", "main.go", "-level", name, "-progress"), withStream()); err != nil {
		return err
	}
	return nil
}

// Loads the named level and rebuilds it whenever its assets change.
func (Run) Watch(name string) error {
	fmt.Printf("Watch level %s...\n", name)
	if _, err := executeCmd("go", withArgs("run", "main.go", "-level", name, "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
