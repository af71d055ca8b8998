// Package menu runs an external line-oriented picker such as rofi or dmenu.
// Options go to the picker's stdin, chosen lines come back on stdout.
// Declining a menu is a normal outcome, not an error.
package menu
