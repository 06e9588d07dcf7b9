// Wafcheck - API Gateway WAF compliance checker
package main

func main() {
	Execute()
}
