package feedback

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Environment exposes the read-only host facts stamped onto every feedback
// record. All methods are synchronous and must not fail.
type Environment interface {
	// AppVersion returns the host application's version, with ok=false
	// when no version is known.
	AppVersion() (version string, ok bool)

	// OSVersion returns an OS name+version string, always non-empty.
	OSVersion() string

	// Locale returns the current locale identifier, e.g. "en_US".
	Locale() string

	// Now returns the current instant.
	Now() time.Time
}

// SystemEnvironment reads host facts from the Go runtime and the process
// environment. The zero value is ready to use.
type SystemEnvironment struct{}

// AppVersion reports the main module's version from build info. Binaries
// built outside module mode report ok=false.
func (SystemEnvironment) AppVersion() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	v := info.Main.Version
	if v == "" || v == "(devel)" {
		return "", false
	}
	return v, true
}

// OSVersion reports the platform as "<os>/<arch> (<go version>)".
func (SystemEnvironment) OSVersion() string {
	return fmt.Sprintf("%s/%s (%s)", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Locale reports the POSIX locale from LC_ALL, LC_MESSAGES or LANG,
// stripped of its charset suffix. Falls back to "en_US".
func (SystemEnvironment) Locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i > 0 {
			v = v[:i]
		}
		return v
	}
	return "en_US"
}

// Now returns time.Now().
func (SystemEnvironment) Now() time.Time { return time.Now() }
