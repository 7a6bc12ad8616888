// Package scanner extracts isotope yield rows from the HTML dump written
// by the yield database's web export.
//
// The dump is scanned one line at a time. Lines between the
// "records retrieved on" marker and the next "PrimeFaces.cw" marker are
// tested against a fixed, ordered set of patterns; each match writes its
// field to the output immediately, followed by a tab. The line after a
// yield line is taken verbatim as the Info column and terminates the row.
//
// No DOM is built and no value is validated. A fragment that matches a
// trigger pattern but cannot be extracted aborts the scan, except for the
// Info column and the proton current cell, which fall back.
package scanner
