// Package cli implements the vgg command-line tool.
//
// Commands:
//   - run: builds a feature stack and runs Forward on random input
//   - describe: prints the architecture and parameter count
//
// Both commands share the stack flags registered by addStackFlags.
package cli
