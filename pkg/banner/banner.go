package banner

import "fmt"

const banner = `
 █████╗ ███╗   ██╗███████╗██╗    ██╗███████╗██████╗     ██████╗ ██████╗
██╔══██╗████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗    ██╔══██╗██╔══██╗
███████║██╔██╗ ██║███████╗██║ █╗ ██║█████╗  ██████╔╝    ██║  ██║██████╔╝
██╔══██║██║╚██╗██║╚════██║██║███╗██║██╔══╝  ██╔══██╗    ██║  ██║██╔══██╗
██║  ██║██║ ╚████║███████║╚███╔███╔╝███████╗██║  ██║    ██████╔╝██████╔╝
╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═╝  ╚═╝    ╚═════╝ ╚═════╝
`

func Print(addr, dbPath, source, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if source != "" {
		fmt.Printf("Config source: %s\n", source)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/query    - Answer a query (JSON: query, sessionId, isFollowUp)")
	fmt.Println("GET  /v1/answers?query=<q> - Peek at the stored answer")
	fmt.Println("POST /v1/answers  - Save an edited answer (JSON: query, answer, editedBy)")
	fmt.Println("GET  /v1/top?limit=<n> - Today's most-used queries")
	fmt.Println("GET  /v1/sessions/{id} - Read a session transcript")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/query' -d '{\"query\":\"what is pebble\",\"sessionId\":\"s1\"}'\n", addr)
	fmt.Printf("curl 'http://localhost%s/v1/top?limit=10'\n", addr)
}
