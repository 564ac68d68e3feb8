// Package gmail is the mail client behind the list_messages and
// send_message tools.
//
// Client talks to the Gmail API through an OAuth2-authorized HTTP client
// supplied by the caller. ToMessageSummary turns upstream messages into the
// flat MessageSummary record, tolerating missing headers.
//
//	client, err := gmail.NewClient(ctx, httpClient)
//	if err != nil {
//		return err
//	}
//	msgs, err := client.ListMessages(ctx, "is:unread", 10)
//	for _, s := range gmail.ToMessageSummaries(msgs) {
//		fmt.Println(s.Sender, s.Subject)
//	}
package gmail
