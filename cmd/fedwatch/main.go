// Command fedwatch collects recent news on federal research topics and
// turns it into a ranked, summarized report.
package main

func main() {
	Execute()
}
