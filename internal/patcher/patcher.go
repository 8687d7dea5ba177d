// Package patcher rewrites generated configuration and script files inside a
// completed install tree so cross-references between companion and primary
// installations resolve correctly.
package patcher

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qtinst/qtinst/internal/models"
	"github.com/sirupsen/logrus"
)

// crossPlaceholders are the build-time install prefixes baked into launcher
// scripts by the binary factory, in both path-separator variants.
var crossPlaceholders = []string{
	"/home/qt/work/install",
	`\Users\qt\work\install`,
}

// launcherScripts are the build-tool launchers rewritten in cross-compile
// installations, each looked up plain and with a .bat suffix.
var launcherScripts = []string{
	"qmake",
	"qmake6",
	"qtpaths",
	"qtpaths6",
	"qt-cmake",
	"qt-configure-module",
}

// wasmTools are extracted without Unix permission bits by the single-thread
// WASM archives; execute permission is restored on non-Windows platforms.
var wasmTools = []string{
	"bin/qmake",
	"bin/qmake6",
	"bin/qtpaths",
	"bin/qtpaths6",
	"bin/qt-cmake",
	"bin/qt-configure-module",
	"libexec/qt-cmake-private",
}

// Patch post-processes one completed installation. It must run only after
// every extraction of the run has succeeded.
func Patch(inst models.Installation) error {
	if err := writeQtConf(inst.Root()); err != nil {
		return err
	}

	switch it := inst.(type) {
	case *models.AutonomousInstall:
		return patchAutonomous(it)
	case *models.CrossCompileInstall:
		return patchCrossCompile(it)
	default:
		return fmt.Errorf("unknown installation kind %T", inst)
	}
}

func patchAutonomous(inst *models.AutonomousInstall) error {
	if err := rewriteLines(filepath.Join(inst.Dir, "mkspecs", "qconfig.pri"), []lineRule{
		{prefix: "QT_EDITION", replacement: "QT_EDITION = OpenSource"},
		{prefix: "QT_LICHECK", replacement: "QT_LICHECK ="},
	}); err != nil {
		return err
	}

	// Linkage descriptors carry the factory's build directory.
	prls, err := filepath.Glob(filepath.Join(inst.Dir, "lib", "*.prl"))
	if err != nil {
		return err
	}
	for _, prl := range prls {
		if err := rewriteLines(prl, []lineRule{
			{prefix: "QMAKE_PRL_BUILD_DIR", replacement: "QMAKE_PRL_BUILD_DIR ="},
		}); err != nil {
			return err
		}
	}

	if inst.Host == "windows" {
		return writeQtenvBat(inst.Dir)
	}
	return nil
}

func patchCrossCompile(inst *models.CrossCompileInstall) error {
	// target_qt.conf only exists from Qt 6 onward.
	if inst.Version.Major >= 6 {
		if err := patchTargetQtConf(inst); err != nil {
			return err
		}
	}

	for _, name := range launcherScripts {
		for _, file := range []string{name, name + ".bat"} {
			script := filepath.Join(inst.Dir, "bin", file)
			if err := replacePlaceholders(script, crossPlaceholders, inst.Companion.Dir); err != nil {
				return err
			}
		}
	}

	if inst.Arch == "wasm_singlethread" && runtime.GOOS != "windows" {
		return restoreToolPermissions(inst.Dir)
	}
	return nil
}

// patchTargetQtConf points the host-linkage config of a cross-compile
// installation at its companion via relative paths, so the pair stays
// relocatable as a unit.
func patchTargetQtConf(inst *models.CrossCompileInstall) error {
	targetLeaf := filepath.Base(inst.Dir)
	companionLeaf := filepath.Base(inst.Companion.Dir)

	hostLibExec := "./libexec"
	if inst.Companion.Host == "windows" {
		hostLibExec = "./bin"
	}

	return rewriteLines(filepath.Join(inst.Dir, "bin", "target_qt.conf"), []lineRule{
		{prefix: "Prefix=", replacement: "Prefix=.."},
		{prefix: "HostPrefix=", replacement: "HostPrefix=../../" + companionLeaf},
		{prefix: "HostData=", replacement: "HostData=../" + targetLeaf},
		{prefix: "HostLibraryExecutables=", replacement: "HostLibraryExecutables=" + hostLibExec},
	})
}

// writeQtConf writes the fixed paths config making the tree self-describing.
func writeQtConf(root string) error {
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(binDir, "qt.conf")
	logrus.Debugf("Writing %s", path)
	return os.WriteFile(path, []byte("[Paths]\nPrefix=..\n"), 0644)
}

// writeQtenvBat writes the environment-setup script of Windows desktop
// installations.
func writeQtenvBat(root string) error {
	content := "@echo off\n" +
		"echo Setting up environment for Qt usage...\n" +
		"set PATH=" + filepath.Join(root, "bin") + ";%PATH%\n" +
		"cd /D " + root + "\n" +
		"echo Remember to call vcvarsall.bat to complete environment setup!\n"
	path := filepath.Join(root, "bin", "qtenv2.bat")
	logrus.Debugf("Writing %s", path)
	return os.WriteFile(path, []byte(content), 0644)
}

func restoreToolPermissions(root string) error {
	for _, rel := range wasmTools {
		path := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := os.Chmod(path, info.Mode().Perm()|0o111); err != nil {
			return err
		}
		logrus.Infof("Restored execute permission on %s", path)
	}
	return nil
}
