//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the testbed window with the OpenGL backend.
func (Run) Engine() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "engine.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed for 120 frames on the memory backend, without a window.
func (Run) Headless() error {
	fmt.Println("Run engine headless...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "engine.toml", "-backend", "memory", "-frames", "120"), withStream()); err != nil {
		return err
	}
	return nil
}
