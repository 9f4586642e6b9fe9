// Command odr demonstrates basic document decoding using docreveal.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/docreveal/core"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: odr <file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	decoded, err := docreveal.Open(data, os.Args[1])
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}

	doc, ok := decoded.(*docreveal.DocumentFile)
	if !ok {
		describe(decoded)
		return
	}

	if doc.PasswordEncrypted() {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		password, _ := reader.ReadString('\n')
		for len(password) > 0 && (password[len(password)-1] == '\n' || password[len(password)-1] == '\r') {
			password = password[:len(password)-1]
		}

		redecoded, err := doc.Decrypt(password)
		if err != nil {
			fmt.Printf("Error decrypting file: %v\n", err)
			os.Exit(1)
		}
		doc, ok = redecoded.(*docreveal.DocumentFile)
		if !ok {
			describe(redecoded)
			return
		}
	}

	document, err := doc.Document()
	if err != nil {
		fmt.Printf("Error building document: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(document.HTML())
}

func describe(decoded docreveal.DecodedFile) {
	switch f := decoded.(type) {
	case docreveal.TextFile:
		fmt.Printf("Plain text, %d bytes\n", len(f.Content))
	case docreveal.CsvFile:
		fmt.Printf("CSV text, %d bytes\n", len(f.Content))
	case docreveal.JsonFile:
		fmt.Printf("JSON text, %d bytes\n", len(f.Content))
	case docreveal.ImageFile:
		fmt.Printf("Image (%s), %d bytes\n", f.Format, len(f.Data))
	case docreveal.ArchiveFile:
		fmt.Println("Unrecognized archive container")
	case docreveal.PdfFile:
		fmt.Printf("PDF, %d bytes\n", len(f.Data))
	case docreveal.UnknownFile:
		fmt.Printf("Unrecognized content, %d bytes\n", len(f.Data))
	default:
		fmt.Println("Unrecognized content")
	}
}
