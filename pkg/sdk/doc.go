// Package sdk provides a thin Go client for the trova product search API.
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	res, err := client.Search(ctx, "red saree under 3000", sdk.WithTopK(5))
//	if err != nil {
//	    // errors.Is(err, sdk.ErrCatalogUnavailable) etc.
//	}
//	for _, item := range res.Items {
//	    fmt.Println(item.Product.Name, item.FinalScore)
//	}
package sdk
