// Package osmem obtains zero-filled memory extents from the operating system.
package osmem
