/*
Package cmd implements the command-line interface for the A2A subscribe
server, its clients and the riddle chat.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/logging"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
This will be written to the home directory of the user running the service,
which allows a developer to easily override the config file.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName  = "a2a-subscribe"
	cfgFile      string
	openaiAPIKey string

	rootCmd = &cobra.Command{
		Use:   "a2a-subscribe",
		Short: "An A2A server that answers right away and pushes results later",
		Long:  longRoot,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yml",
		"config file (default is $HOME/."+projectName+"/config.yml)",
	)

	rootCmd.PersistentFlags().StringVar(
		&openaiAPIKey,
		"openai-api-key",
		"",
		"API key for the OpenAI provider",
	)
}

/*
initConfig loads .env, writes the default config to the user's home
directory if it is missing, and reads it. Environment variables such as
A2A_SERVER_ADDR override file values.
*/
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load .env", "error", err)
	}

	if err := writeConfig(); err != nil {
		log.Fatal("failed to write config", "error", err)
	}

	home, _ := os.UserHomeDir()

	viper.SetConfigName(strings.TrimSuffix(cfgFile, ".yml"))
	viper.SetConfigType("yml")
	viper.AddConfigPath(home + "/." + projectName)
	viper.SetEnvPrefix("A2A")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal("failed to read config", "error", err)
	}

	logging.SetLevel(viper.GetString("log.level"))

	if openaiAPIKey != "" {
		_ = os.Setenv("OPENAI_API_KEY", openaiAPIKey)
	}
}

func writeConfig() (err error) {
	var (
		home, _ = os.UserHomeDir()
		fh      fs.File
		buf     bytes.Buffer
	)

	configDir := home + "/." + projectName

	if !CheckFileExists(configDir) {
		if err = os.MkdirAll(configDir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	fullPath := configDir + "/" + cfgFile

	if CheckFileExists(fullPath) {
		return nil
	}

	if fh, err = embedded.Open("cfg/config.yml"); err != nil {
		return fmt.Errorf("failed to open embedded config file: %w", err)
	}

	defer fh.Close()

	if _, err = io.Copy(&buf, fh); err != nil {
		return fmt.Errorf("failed to read embedded config file: %w", err)
	}

	if err = os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Info("wrote config file", "path", fullPath)

	return nil
}

func CheckFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

/*
expandHome turns a leading ~ into the user's home directory.
*/
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, _ := os.UserHomeDir()

	return home + strings.TrimPrefix(path, "~")
}

var longRoot = `
a2a-subscribe runs an Agent-to-Agent (A2A) JSON-RPC server that accepts a
task, answers immediately with "submitted", and pushes the finished artifact
to a callback URL the client registered for the task.
`
