// Command quizctl validates, evaluates and publishes quiz definitions from
// the command line.
package main

func main() {
	Execute()
}
