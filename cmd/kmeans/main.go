// Command kmeans clusters the points of a CSV file and prints a YAML report.
package main

func main() {
	Execute()
}
