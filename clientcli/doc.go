// Package clientcli provides a client library for the media storage broker.
//
// The broker never handles file bytes. An upload asks the broker for a write
// URL, PUTs the file straight to the object store and then confirms it; a
// download asks for a read URL and GETs the object from the store. Every
// broker call carries a bearer token.
//
// # Basic Usage
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8080",
//		Token:    os.Getenv("MEDIASTORE_TOKEN"),
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./photo.jpg",
//		Title:     "Beach",
//		Tags:      []string{"summer"},
//	})
//
// # Profile Configuration
//
// Profiles keep endpoints and tokens for several brokers in
// ~/.mediastore/config.yaml:
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
//	formatter.FormatUpload(os.Stdout, result)
package clientcli
