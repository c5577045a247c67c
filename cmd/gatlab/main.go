// Command gatlab checks, stores and renders terms of generalized algebraic theories.
package main

func main() {
	Execute()
}
