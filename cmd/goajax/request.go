package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joy-dx/goajax"
	"github.com/joy-dx/goajax/dto"
	"github.com/joy-dx/goajax/page"
	"github.com/spf13/cobra"
)

var (
	reqMethod    string
	reqData      []string
	reqHeaders   = dto.ExtraHeaders{}
	reqKey       string
	reqCache     bool
	reqTimeout   time.Duration
	reqAsJSON    bool
	reqCallback  string
	reqNoCSRF    bool
	reqWithCreds bool
	reqAssets    []string
	reqShowHead  bool
)

var requestCmd = &cobra.Command{
	Use:   "request <url>",
	Short: "Send one request and print the normalized response",
	Example: `  goajax request https://example.com/items -d page=2
  goajax request https://example.com/items -X POST -d name=widget -H X-Team=web
  goajax request "https://api.example.com/feed" -X JSONP --callback cb
  goajax request s3://templates/items.html -c goajax.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().StringVarP(&reqMethod, "method", "X", "GET", "Request method, JSONP included")
	requestCmd.Flags().StringSliceVarP(&reqData, "data", "d", []string{}, "Data fields as key=value")
	requestCmd.Flags().VarP(&reqHeaders, "header", "H", "Headers as comma separated key=value pairs")
	requestCmd.Flags().StringVar(&reqKey, "key", "", "Request key (default: the url)")
	requestCmd.Flags().BoolVar(&reqCache, "cache", false, "Do not append the cache busting parameter")
	requestCmd.Flags().DurationVar(&reqTimeout, "timeout", 0, "Request timeout (default: the service timeout)")
	requestCmd.Flags().BoolVar(&reqAsJSON, "json", false, "Print the response as JSON")
	requestCmd.Flags().StringVar(&reqCallback, "callback", "", "JSONP callback parameter name")
	requestCmd.Flags().BoolVar(&reqNoCSRF, "no-csrf", false, "Do not send the CSRF token")
	requestCmd.Flags().BoolVar(&reqWithCreds, "with-credentials", false, "Send session cookies")
	requestCmd.Flags().StringSliceVar(&reqAssets, "asset", []string{}, "Stylesheet or script to inject on success")
	requestCmd.Flags().BoolVar(&reqShowHead, "head", false, "Print the page head after the request")
}

func runRequest(cmd *cobra.Command, args []string) error {
	ajaxCfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc := goajax.ProvideAjaxSvc(ajaxCfg)
	if err := svc.Hydrate(cmd.Context()); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}

	data := dto.Fields{}
	for _, pair := range reqData {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("data %q: expected key=value", pair)
		}
		data = data.Set(k, v)
	}

	cfg := dto.DefaultRequestConfig()
	cfg.WithURL(args[0]).
		WithMethod(reqMethod).
		WithHeaders(reqHeaders).
		WithKey(reqKey).
		WithCache(reqCache).
		WithCSRF(!reqNoCSRF).
		WithCredentialsMode(reqWithCreds)
	if len(data) > 0 {
		cfg.WithData(data)
	}
	if len(reqAssets) > 0 {
		cfg.WithAssets(reqAssets)
	}
	if reqCallback != "" {
		cfg.WithJSONPCallbackParam(reqCallback)
	}
	if reqTimeout > 0 {
		cfg.WithTimeout(reqTimeout)
	} else {
		cfg.WithTimeout(ajaxCfg.RequestTimeout)
	}

	res, err := svc.Do(cmd.Context(), &cfg)
	var statusErr *dto.StatusError
	if err != nil && !errors.As(err, &statusErr) {
		return err
	}

	if reqAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
	} else {
		printResponse(res)
	}
	if reqShowHead {
		if pg, ok := svc.Page().(*page.Memory); ok {
			if renderErr := pg.Head().Render(cmd.Context(), os.Stdout); renderErr != nil {
				return renderErr
			}
			fmt.Println()
		}
	}
	return err
}

func printResponse(res dto.Response) {
	fmt.Printf("%d %s (%s)\n", res.StatusCode, res.StatusText, res.ReadyState)
	names := make([]string, 0, len(res.Headers))
	for name := range res.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, strings.Join(res.Headers[name], ", "))
	}
	fmt.Println()
	switch data := res.Data.(type) {
	case string:
		fmt.Println(data)
	case nil:
	default:
		out, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(out))
	}
}
