package main

import "github.com/ValentinKolb/rpclink/cmd"

func main() {
	cmd.Execute()
}
