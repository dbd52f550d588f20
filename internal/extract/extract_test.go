package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanJavaScript(t *testing.T) {
	src := `
import React from 'react';
import { parse } from './parser';
import './styles.css';
const fs = require('fs');
const helper = require('../lib/helper');
export default class App {}
export function render(tree) {}
export const VERSION = '1.0';
export { walk, visit as visitNode };
`
	res := Scan([]byte(src), "javascript")

	assert.Equal(t, []string{"react", "./parser", "./styles.css", "fs", "../lib/helper"}, res.Imports)
	assert.Equal(t, []string{"App", "render", "VERSION", "walk", "visitNode"}, res.Exports)
}

func TestScanTypeScriptReexport(t *testing.T) {
	src := `
export * from './types';
export interface Options { depth: number }
export type Handler = () => void;
import type { Node } from './ast';
`
	res := Scan([]byte(src), "typescript")

	assert.Contains(t, res.Imports, "./types")
	assert.Contains(t, res.Imports, "./ast")
	assert.Contains(t, res.Exports, "Options")
	assert.Contains(t, res.Exports, "Handler")
}

func TestScanGo(t *testing.T) {
	src := `package widget

import (
	"fmt"
	gopath "path"

	"github.com/spf13/cobra"
)

import "strings"

// Widget is exported.
type Widget struct{}

func New() *Widget { return nil }

func (w *Widget) Render() string { return fmt.Sprint(gopath.Join, strings.ToUpper, cobra.Command{}) }

func internalHelper() {}

var Registry = map[string]*Widget{}
`
	res := Scan([]byte(src), "go")

	assert.Equal(t, []string{"fmt", "path", "github.com/spf13/cobra", "strings"}, res.Imports)
	assert.Equal(t, []string{"Widget", "New", "Render", "Registry"}, res.Exports)
}

func TestScanPython(t *testing.T) {
	src := `
import os
import collections.abc
from typing import List
from .helper import load, save
from ..core import engine

MAX_DEPTH = 10

def public_fn():
    pass

def _private_fn():
    pass

class Indexer:
    pass
`
	res := Scan([]byte(src), "python")

	assert.Equal(t, []string{"os", "collections.abc", "typing", ".helper", "..core"}, res.Imports)
	assert.Equal(t, []string{"MAX_DEPTH", "public_fn", "Indexer"}, res.Exports)
}

func TestScanRust(t *testing.T) {
	src := `
use std::collections::HashMap;
pub use crate::graph;
mod resolver;
pub mod walker;

pub fn index() {}
pub struct Record {}
fn private() {}
`
	res := Scan([]byte(src), "rust")

	assert.Contains(t, res.Imports, "resolver")
	assert.Contains(t, res.Imports, "walker")
	assert.Equal(t, []string{"index", "Record"}, res.Exports)
}

func TestScanCSS(t *testing.T) {
	src := `
@import './base.css';
@use 'variables';
@import url("theme.css");
body { color: red; }
`
	res := Scan([]byte(src), "scss")

	assert.Equal(t, []string{"./base.css", "variables", "theme.css"}, res.Imports)
	assert.Empty(t, res.Exports)
}

func TestScanNeverFails(t *testing.T) {
	garbage := []byte{0x00, 0xff, 0xfe, 'i', 'm', 'p', 'o', 'r', 't'}

	for _, lang := range []string{"javascript", "go", "python", "rust", "css", "text", "markdown"} {
		res := Scan(garbage, lang)
		assert.Empty(t, res.Imports, lang)
		assert.Empty(t, res.Exports, lang)
	}
	assert.Equal(t, Result{}, Scan(nil, "typescript"))
}
