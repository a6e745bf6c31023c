// Package logtail reads the tail of the sitelist log file and turns its JSON
// lines into readable text for the TUI log view.
//
// # Reading Log Files
//
// Read keeps only the last maxLines in a ring buffer, so memory stays bounded
// no matter how large the file grows. A missing file yields no lines and no
// error: the log view simply starts empty.
//
// # Formatting
//
// The logger writes one JSON object per line. Format renders each object as
//
//	<local time> <LEVEL> – <message>
//	    - <field>: <value>
//
// with extra fields sorted by key. The caller and stacktrace keys are
// dropped. Lines that are not JSON pass through unchanged.
package logtail
