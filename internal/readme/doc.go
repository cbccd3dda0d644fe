// Package readme regenerates a plugin's distribution readme.txt from the
// existing readme header, the plugin's main source file and a set of
// Markdown fragments.
//
// The work is a strictly ordered chain of stages. Each stage reads the files
// written by the stages before it and refuses to run until all of its
// declared inputs exist. Temporary files are removed on every exit path.
package readme
