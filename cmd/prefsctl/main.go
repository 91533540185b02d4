// Command prefsctl inspects and edits preferences stored by prefseditor.
package main

func main() {
	execute()
}
