//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs every package test with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs the headless testbed integration test only.
func (Test) Testbed() error {
	_, err := executeCmd("go", withArgs("test", "-run", "TestTestbedRunsHeadless", "."), withDir("testbed"), withStream())
	return err
}
