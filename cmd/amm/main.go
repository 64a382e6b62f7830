package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	ammDataDir = btcutil.AppDataDir("amm-cli", false)
	statePath  = filepath.Join(ammDataDir, "state.json")

	httpClient = &http.Client{Timeout: 15 * time.Second}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "amm CLI"
	app.Usage = "Command line interface for the amm daemon"
	app.Commands = append(
		app.Commands,
		&config,
		&reserves,
		&invariant,
		&preview,
		&swaps,
		&swap,
		&abort,
		&token,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(ammDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(ammDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

// getFromDaemon makes a GET request to the given path of the daemon API and
// returns the raw JSON body.
func getFromDaemon(path string, query url.Values) ([]byte, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return callDaemon(http.MethodGet, path, "")
}

// postToDaemon makes an authenticated POST request with empty body to the
// given path of the daemon API.
func postToDaemon(path, token string) ([]byte, error) {
	return callDaemon(http.MethodPost, path, token)
}

func callDaemon(method, path, token string) ([]byte, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state["rpcserver"]
	if !ok {
		return nil, errors.New("set daemon address with `config set rpcserver`")
	}
	if !strings.HasPrefix(address, "http") {
		address = "http://" + address
	}

	req, err := http.NewRequest(
		method, strings.TrimSuffix(address, "/")+path, nil,
	)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		errResp := struct {
			Error string `json:"error"`
		}{}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, fmt.Errorf("daemon replied with status %d", resp.StatusCode)
	}
	return body, nil
}

func printRespJSON(body []byte) {
	var out interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Println(string(body))
		return
	}
	jsonStr, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(jsonStr))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[amm] %v\n", err)
	os.Exit(1)
}
