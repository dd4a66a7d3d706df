// Package tpos is the Go SDK for the Tillhub point-of-sale deep-link
// protocol. Applications hand a cart to the point of sale by opening a URL
// and receive the resulting transaction through a callback URL.
//
// # Requests
//
// Build a [Cart] (or a [CartReference] to a cart stored in Tillhub), wrap it
// with a [RequestHeader] into a [Request], and deliver it with a
// [Dispatcher]. The dispatcher checks that the target scheme is declared by
// the host application ([SchemeRegistry]) and that the platform can open it
// ([URLOpener]) before opening the URL:
//
//	<target>://TillhubPointOfSaleSDK_1_4/checkout/cart?request=<escaped JSON>
//
// [Dispatcher.Send] returns an [Interaction] that completes once the response
// is received with [Interaction.Receive].
//
// # Responses
//
// The point of sale decodes the URL with [Codec.ParseRequest], or lets a
// [Receiver] route it to a [RequestHandler]. The [Response] is appended as a
// "response" query item to the callback URL built from the request's
// callbackUrlScheme; query items already on that URL are kept.
//
// # Errors
//
// Every failure is an [*Error] whose [ErrorKind] names the violated rule or
// the codec or delivery stage that failed. Use [IsKind] or errors.Is with an
// [Error] template to branch on it.
package tpos
