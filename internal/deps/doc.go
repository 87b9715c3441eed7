// Package deps checks that the external binaries happy-audio drives are
// installed, and reports their versions for the doctor command.
package deps
