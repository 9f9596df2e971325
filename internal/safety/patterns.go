// ABOUTME: Built-in danger pattern set covering irreversible host damage
// ABOUTME: Patterns are data; policy files may extend this set at startup

package safety

// DefaultPatterns returns the built-in deny-list. The set covers commands
// whose damage is immediate and irreversible; anything subtler belongs in a
// policy file.
func DefaultPatterns() []Pattern {
	return []Pattern{
		MustPattern(`(?i)rm\s+(-[a-z]*\s+)*(/|~|\$HOME)/*(\s|$)`,
			"recursive deletion of the filesystem root or home directory"),
		MustPattern(`:\s*\(\s*\)\s*\{[^}]*:\s*\|\s*:`,
			"shell fork bomb"),
		MustPattern(`(?i)mkfs(\.[a-z0-9]+)?\s`,
			"filesystem format invocation"),
		MustPattern(`(?i)dd\s+[^|;]*of=/dev/`,
			"raw write to a block device"),
		MustPattern(`>\s*/dev/[sh]d[a-z]`,
			"output redirected onto a block device"),
		MustPattern(`(?i)(curl|wget)\s+[^|;]*\|\s*(ba|z|da)?sh`,
			"piping a network download into a shell"),
	}
}
