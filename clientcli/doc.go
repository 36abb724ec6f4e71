// Package clientcli provides a client library for the todos API.
//
// It wraps the item endpoints with bearer token authentication and uploads
// attachments through the signed URLs the server hands out. Profile-based
// configuration manages tokens for multiple servers.
//
// # Basic Usage
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8080",
//		Token:    os.Getenv("TODOS_TOKEN"),
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	item, err := client.Create(ctx, todos.CreateItem{Name: "buy milk", DueDate: "2024-01-01"})
//
//	result, err := client.UploadAttachment(ctx, item.ItemID, "./receipt.png")
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatItems(os.Stdout, items)
package clientcli
