package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(&out, "%s: %s\n", k, v)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	if body == nil {
		return ""
	}
	defer body.Close()
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url
// 7: response headers in ("Key: Value" format)
// 8: response body
const exchangeTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

// FormatExchange renders the request that produced res together with the
// response itself as plain text.
func FormatExchange(res *resty.Response) string {
	var requestHeaders, requestBody string
	if raw := res.Request.RawRequest; raw != nil {
		requestHeaders = formatHeaders(raw.Header)
		requestBody = formatRequestBody(raw)
	}

	responseUrl := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			responseUrl = redirected.String()
		}
	}

	return fmt.Sprintf(
		exchangeTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		requestBody,

		strconv.Itoa(res.StatusCode()), responseUrl,
		formatHeaders(res.Header()),
		res.String(),
	)
}
