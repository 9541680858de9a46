// Command mallocctl drives the heap allocator from the command line: a
// scripted demo, a concurrent stress run and trace replay.
package main

func main() {
	execute()
}
