package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		DeviceIDFile string `json:"device_id_file"`
	} `json:"app,omitempty"`

	WebDAV struct {
		URL            string   `json:"url"`
		Username       string   `json:"username"`
		Password       string   `json:"password"`
		BasePath       string   `json:"base_path"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"webdav,omitempty"`

	Storage struct {
		DBPath string `json:"db_path"`
	} `json:"storage,omitempty"`

	Sync struct {
		IntervalHours int   `json:"interval_hours"`
		IncludeText   bool  `json:"include_text"`
		IncludeHTML   bool  `json:"include_html"`
		IncludeRTF    bool  `json:"include_rtf"`
		IncludeImages bool  `json:"include_images"`
		IncludeFiles  bool  `json:"include_files"`
		OnlyFavorites bool  `json:"only_favorites"`
		MaxImageSize  int64 `json:"max_image_size"`
		MaxFileSize   int64 `json:"max_file_size"`
	} `json:"sync,omitempty"`

	Workers struct {
		UploadConcurrency int `json:"upload_concurrency"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceIDFile: jsonCfg.App.DeviceIDFile,
		},
		WebDAV: WebDAV{
			URL:            jsonCfg.WebDAV.URL,
			Username:       jsonCfg.WebDAV.Username,
			Password:       jsonCfg.WebDAV.Password,
			BasePath:       jsonCfg.WebDAV.BasePath,
			RequestTimeout: time.Duration(jsonCfg.WebDAV.RequestTimeout),
		},
		Storage: Storage{
			DBPath: jsonCfg.Storage.DBPath,
		},
		Sync: Sync{
			IntervalHours: jsonCfg.Sync.IntervalHours,
			IncludeText:   jsonCfg.Sync.IncludeText,
			IncludeHTML:   jsonCfg.Sync.IncludeHTML,
			IncludeRTF:    jsonCfg.Sync.IncludeRTF,
			IncludeImages: jsonCfg.Sync.IncludeImages,
			IncludeFiles:  jsonCfg.Sync.IncludeFiles,
			OnlyFavorites: jsonCfg.Sync.OnlyFavorites,
			MaxImageSize:  jsonCfg.Sync.MaxImageSize,
			MaxFileSize:   jsonCfg.Sync.MaxFileSize,
		},
		Workers: Workers{
			UploadConcurrency: jsonCfg.Workers.UploadConcurrency,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
