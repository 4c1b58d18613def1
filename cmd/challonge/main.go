// Command challonge obtains Challonge OAuth tokens and sends raw API requests.
package main

func main() {
	Execute()
}
