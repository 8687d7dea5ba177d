package models

// Installation describes one unpacked install tree. It is either autonomous
// (self-sufficient, the desktop/host case) or cross-compile (paired with a
// companion autonomous installation it references via relative paths). The
// patcher dispatches on the concrete type.
type Installation interface {
	// Root returns the absolute install directory, set by the installer
	// once the directory name has been derived.
	Root() string

	// SetRoot records the derived install directory.
	SetRoot(dir string)

	// Spec returns the common host/target/arch/version tuple.
	Spec() InstallSpec

	installation()
}

// InstallSpec is the tuple an installation was resolved for.
type InstallSpec struct {
	Host    string
	Target  string
	Arch    string
	Version Version
}

// AutonomousInstall is a self-sufficient installation.
type AutonomousInstall struct {
	InstallSpec
	Dir string
}

func (a *AutonomousInstall) Root() string        { return a.Dir }
func (a *AutonomousInstall) SetRoot(dir string)  { a.Dir = dir }
func (a *AutonomousInstall) Spec() InstallSpec   { return a.InstallSpec }
func (a *AutonomousInstall) installation()       {}

// CrossCompileInstall is a target installation that depends on a companion
// desktop installation for build tooling.
type CrossCompileInstall struct {
	InstallSpec
	Dir string

	// Companion is the autonomous installation this install references.
	Companion *AutonomousInstall
}

func (c *CrossCompileInstall) Root() string       { return c.Dir }
func (c *CrossCompileInstall) SetRoot(dir string) { c.Dir = dir }
func (c *CrossCompileInstall) Spec() InstallSpec  { return c.InstallSpec }
func (c *CrossCompileInstall) installation()      {}
