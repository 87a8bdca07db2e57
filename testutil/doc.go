// Package testutil provides test fixtures for code built on the SDK.
//
// MockServer is a fake OpenAPI server that checks request signatures and
// replies with scripted envelopes:
//
//	func TestRegister(t *testing.T) {
//	    server := testutil.StartMockServer(t)
//	    server.ReplyResult(http.MethodPost, "/api/open/v1/register", true, "", "", "open-id")
//
//	    c, _ := client.New(client.Config{
//	        AccessID:  testutil.TestAccessID,
//	        AccessKey: testutil.TestAccessKey,
//	        Address:   server.URL(),
//	    })
//	    ...
//	}
//
// Components implementing TestComponent can also be managed manually:
//
//	cleanup, err := testutil.Setup(server)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
package testutil
