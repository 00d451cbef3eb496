// Package archive packages generated chart file sets as zip archives for
// download. Entries are written in sorted path order under a single root
// directory so repeated runs produce byte-identical archives.
package archive
