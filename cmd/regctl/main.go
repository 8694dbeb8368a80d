// Command regctl is a CLI client for regsrvd, grounded on hivectl's
// per-subcommand cobra layout but issuing wire requests instead of reading
// hive files directly.
package main

func main() {
	execute()
}
