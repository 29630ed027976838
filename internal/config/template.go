package config

// Template returns a starter project configuration for library, shaped like
// the file Parse expects.
func Template(library string) map[string]any {
	if library == "" {
		library = "Gtk"
	}

	return map[string]any{
		"options": map[string]any{
			"library":                  library,
			"version":                  "3.0",
			"min_cfg_version":          "3.0",
			"target_path":              ".",
			"auto_path":                DefaultAutoPath,
			"girs_dir":                 DefaultGirsDir,
			"make_backup":              false,
			"generate_safety_asserts":  true,
			"deprecate_by_min_version": false,
		},
		"generate": []string{},
		"object": []map[string]any{
			{
				"name":     library + ".ExampleFlags",
				"status":   StatusGenerate.String(),
				"must_use": false,
				"member": []map[string]any{
					{"name": "example_member", "ignore": true},
				},
			},
		},
	}
}
