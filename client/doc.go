// Package client is the SDK entry point: it signs requests to the OpenAPI
// server and normalizes the responses.
//
//	c, err := client.New(client.Config{
//	    AccessID:  os.Getenv("OPENAPI_ACCESS_ID"),
//	    AccessKey: os.Getenv("OPENAPI_ACCESS_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close(ctx)
//
//	out, err := c.API().Register(ctx, client.RegisterInfo{PhoneNumber: "13800000000"})
//	if err != nil {
//	    return err // signing or transport failure
//	}
//	if !out.Succeeded {
//	    log.Printf("register failed: %s %s", out.ErrCode, out.Message)
//	}
//
// Callers that send requests themselves can sign them with
// c.Auth().GenerateAuthHeader(method, path).
package client
