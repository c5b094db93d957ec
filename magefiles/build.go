//go:build mage

package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed binary into bin/nabla.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "nabla"), "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Validates the GLSL sources with glslangValidator, when it is installed.
func (Build) Shaders() error {
	return buildShaders()
}

func buildShaders() error {
	if _, err := exec.LookPath("glslangValidator"); err != nil {
		fmt.Println("glslangValidator not found, skipping shader validation")
		return nil
	}
	sources, err := shaderSources()
	if err != nil {
		return err
	}
	for _, src := range sources {
		if _, err := executeCmd("glslangValidator", withArgs(src)); err != nil {
			return err
		}
	}
	return nil
}

func shaderSources() ([]string, error) {
	var sources []string
	for _, pattern := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join("assets", "shaders", pattern))
		if err != nil {
			return nil, err
		}
		sources = append(sources, matches...)
	}
	return sources, nil
}

// Tidies modules and reruns go generate.
func (Build) Tidy() error {
	return goTidy()
}
