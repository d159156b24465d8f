// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// `.help` with no topic prints the console command overview. A topic is
// either a console command (with or without the dot) or a ZPL command,
// written with its prefix (^FO, ~HS), as a bare token (FO) or by catalog
// name (FIELD_ORIGIN).
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// printHelp writes help for topic, or the overview when topic is empty.
func printHelp(w io.Writer, topic string) error {
	if topic == "" {
		io.WriteString(w, helpOverview)
		return nil
	}

	key := strings.ToLower(strings.TrimPrefix(topic, "."))
	if text, ok := consoleHelp[key]; ok {
		fmt.Fprintln(w, text)
		return nil
	}
	if descs := lookupZPL(topic); len(descs) > 0 {
		for _, d := range descs {
			fmt.Fprintln(w, describeCommand(d))
		}
		return nil
	}
	return fmt.Errorf("no help for %q (type .help for a list)", topic)
}

// consoleTopics returns the console commands that have help, sorted.
func consoleTopics() []string {
	return slices.Sorted(maps.Keys(consoleHelp))
}

// lookupZPL finds catalog entries matching a ZPL topic.
func lookupZPL(topic string) []*zplprotocol.Descriptor {
	if d, ok := zplprotocol.LookupName(strings.ToUpper(topic)); ok {
		return []*zplprotocol.Descriptor{d}
	}
	token := strings.ToUpper(topic)
	namespaces := []zplprotocol.Namespace{zplprotocol.Format, zplprotocol.Control}
	switch {
	case strings.HasPrefix(token, "^"):
		token, namespaces = token[1:], namespaces[:1]
	case strings.HasPrefix(token, "~"):
		token, namespaces = token[1:], namespaces[1:]
	}
	var out []*zplprotocol.Descriptor
	for _, ns := range namespaces {
		if d, ok := zplprotocol.Lookup(ns, token); ok {
			out = append(out, d)
		}
	}
	return out
}

// describeCommand formats a catalog entry for display.
func describeCommand(d *zplprotocol.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s  %s\n    %s", d, d.Name(), d.Description())
	params := d.Params()
	if len(params) > 0 {
		defaults := d.Defaults()
		b.WriteString("\n    Parameters:")
		for i, p := range params {
			var notes []string
			if i < d.Required() {
				notes = append(notes, "required")
			}
			if i < len(defaults) && defaults[i] != "" {
				notes = append(notes, "default "+defaults[i])
			}
			if len(notes) > 0 {
				fmt.Fprintf(&b, "\n      %-22s %s", p, strings.Join(notes, ", "))
			} else {
				fmt.Fprintf(&b, "\n      %s", p)
			}
		}
	}
	if d.Response() {
		b.WriteString("\n    The printer replies to this command.")
	}
	return b.String()
}

const helpOverview = `Console Commands:
  .text X Y TEXT        Print a text field
  .box X Y W H [T]      Print a box
  .circle X Y D [T]     Print a circle
  .qr X Y DATA          Print a QR code
  .code128 X Y H DATA   Print a Code 128 barcode
  .raw TEXT             Send TEXT without parsing it
  .status               Query and decode the host status (~HS)
  .identify             Query model and firmware (~HI)
  .syntax [F C D]       Show or change prefixes and delimiter
  .help [topic]         Show help for a console or ZPL command
  .quit                 Exit

Any other line is sent as ZPL, e.g. ^XA^FO20,20^FDHello^FS^XZ
`

var consoleHelp = map[string]string{
	"text": `  .text X Y TEXT
    Print TEXT with its top-left corner at X,Y (in dots) using the
    printer's default font.
    Example:
      .text 20 20 Hello, world`,

	"box": `  .box X Y W H [T]
    Print a W x H box at X,Y with border thickness T (default 1).
    A thickness equal to the smaller side prints a filled rectangle.
    Examples:
      .box 10 10 200 100
      .box 10 10 200 100 100`,

	"circle": `  .circle X Y D [T]
    Print a circle of diameter D at X,Y with border thickness T.`,

	"qr": `  .qr X Y DATA
    Print DATA as a QR code (magnification 5, error correction M).
    Example:
      .qr 50 50 https://example.com`,

	"code128": `  .code128 X Y H DATA
    Print DATA as a Code 128 barcode H dots tall with the
    interpretation line below it.
    Example:
      .code128 20 20 100 ABC-12345`,

	"raw": `  .raw TEXT
    Send TEXT exactly as typed. Nothing is parsed or checked and no
    reply is awaited.`,

	"status": `  .status
    Send ~HS and show the decoded host status: interface settings,
    media, paper and ribbon state, buffer contents and temperature.`,

	"identify": `  .identify
    Send ~HI and show the model, firmware version, density and memory
    reported by the printer.`,

	"syntax": `  .syntax
  .syntax FORMAT CONTROL DELIMITER
    Show the prefixes and delimiter in force, or change them with
    ~CC, ~CT and ~CD. Later input must use the new characters.
    Example:
      .syntax + # ;`,

	"help": `  .help [topic]
    Show the command overview, or help on a console command or a ZPL
    command from the catalog.
    Examples:
      .help box
      .help ^FO
      .help ~HS
      .help BARCODE_CODE_128`,

	"quit": `  .quit
    Close the connection and exit. Ctrl-D does the same.`,
}
