package main

import "selfadmin/internal/http"

func main() {
	http.StartApp()
}
