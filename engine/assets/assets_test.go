package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spaghettifunk/nabla/engine/renderer/metadata"
)

const vertexSource = "#version 410 core\nvoid main() {}\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAssetManagerLoadsFromBaseDir(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "shaders", "basic.vert"), vertexSource)

	am, err := NewAssetManager(base, false)
	if err != nil {
		t.Fatalf("NewAssetManager() error = %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer am.Shutdown()

	res, err := am.LoadAsset("shaders/basic.vert", metadata.ResourceTypeShader, nil)
	if err != nil {
		t.Fatalf("LoadAsset() error = %v", err)
	}
	data, ok := res.Data.(*metadata.ShaderResourceData)
	if !ok {
		t.Fatalf("Data is %T, want *ShaderResourceData", res.Data)
	}
	if data.Source != vertexSource || data.Stage != metadata.ShaderStageVertex {
		t.Errorf("got stage %v source %q, want vertex %q", data.Stage, data.Source, vertexSource)
	}
	if _, ok := am.Loaded("shaders/basic.vert"); !ok {
		t.Errorf("Loaded() = false after LoadAsset")
	}

	if err := am.UnloadAsset(res); err != nil {
		t.Fatalf("UnloadAsset() error = %v", err)
	}
	if _, ok := am.Loaded("shaders/basic.vert"); ok {
		t.Errorf("Loaded() = true after UnloadAsset")
	}
}

func TestAssetManagerUnknownType(t *testing.T) {
	am, err := NewAssetManager(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := am.LoadAsset("whatever.bin", metadata.ResourceTypeBinary, nil); err == nil {
		t.Fatalf("LoadAsset() with no loader registered: error = nil")
	}
}

func TestAssetManagerReportsModifiedFiles(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "basic.frag")
	writeFile(t, path, "void main() {}\n")

	am, err := NewAssetManager(base, true)
	if err != nil {
		t.Fatalf("NewAssetManager() error = %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer am.Shutdown()

	if _, err := am.LoadAsset(path, metadata.ResourceTypeShader, nil); err != nil {
		t.Fatalf("LoadAsset() error = %v", err)
	}
	if got := am.TakeModified(); len(got) != 0 {
		t.Fatalf("TakeModified() before any write = %v, want none", got)
	}

	writeFile(t, path, "void main() { }\n")

	want := am.Resolve(path)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, p := range am.TakeModified() {
			if p == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no modification reported for %s", want)
}

func TestAssetManagerWatchAfterShutdown(t *testing.T) {
	am, err := NewAssetManager(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewAssetManager() error = %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := am.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if err := am.add(t.TempDir()); err == nil {
		t.Errorf("add() after Shutdown: error = nil, want error")
	}
	if err := am.addRecursive(t.TempDir()); err == nil {
		t.Errorf("addRecursive() after Shutdown: error = nil, want error")
	}
}

func TestAssetManagerConcurrentLoadsDuringShutdown(t *testing.T) {
	am, err := NewAssetManager(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewAssetManager() error = %v", err)
	}
	if err := am.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// Files outside the base directory are watched one by one as they load.
	outside := t.TempDir()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = filepath.Join(outside, fmt.Sprintf("shader%d.vert", i))
		writeFile(t, paths[i], vertexSource)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(paths))
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			_, err := am.LoadAsset(path, metadata.ResourceTypeShader, nil)
			errs <- err
		}(path)
	}
	if err := am.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("LoadAsset() error = %v", err)
		}
	}
}
