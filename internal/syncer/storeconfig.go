package syncer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/girogi/internal/apperr"
	"github.com/starford/girogi/internal/models"
	"github.com/starford/girogi/internal/storage"
)

// ConfigFileName is the persisted store config, relative to the state
// directory.
const ConfigFileName = "store_config.json"

// storeDescription goes into the config written on store creation.
const storeDescription = "Records & Society newsletter archive"

// LoadStoreConfig reads the persisted store config. A missing file
// yields apperr.ErrNotFound wrapped in a Configuration kind; the query
// path treats that as fatal, the sync path creates a fresh one.
func LoadStoreConfig(state storage.Provider) (*models.StoreConfig, error) {
	data, err := state.Read(ConfigFileName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration,
			fmt.Sprintf("%s missing, run a sync first", ConfigFileName), apperr.ErrNotFound)
	}
	var cfg models.StoreConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration,
			fmt.Sprintf("%s is corrupt", ConfigFileName), err)
	}
	return &cfg, nil
}

// saveStoreConfig writes a fresh store config. Only the store-creation
// path calls this; reuse never rewrites the file.
func saveStoreConfig(state storage.Provider, storeID, storeName, dataSource string) error {
	cfg := models.StoreConfig{
		CorpusName:  storeID,
		StoreName:   storeName,
		CreatedAt:   time.Now().Format("2006-01-02 15:04:05"),
		DataSource:  dataSource,
		Description: storeDescription,
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("syncer: encode store config: %w", err)
	}
	data = append(data, '\n')
	return state.Write(ConfigFileName, data)
}
