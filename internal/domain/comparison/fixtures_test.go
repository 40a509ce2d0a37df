package comparison

import "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"

func mat(id string, mech, phys catalog.AttributeGroup) *catalog.Material {
	return &catalog.Material{ID: id, Name: id, Category: catalog.CategorySteel, Mechanical: mech, Physical: phys}
}

func materialsFixture() []*catalog.Material {
	return []*catalog.Material{
		{
			ID: "A", Name: "A", Category: catalog.CategoryAluminum, Grade: "7075", Shape: "型材",
			Description:      "a",
			ApplicationParts: []string{"机架", "机臂"},
			Chemical:         catalog.NewAttributeGroup("Al", "Bal.", "Zn", "5.8"),
			Mechanical:       catalog.NewAttributeGroup("屈服强度", "636", "抗拉强度", "682 MPa"),
		},
		{
			ID: "B", Name: "B", Category: catalog.CategorySteel, Grade: "MnB钢",
			Description: "b",
			Chemical:    catalog.NewAttributeGroup("C", "0.34", "Zn", "-", "B", "0.0025"),
			Mechanical:  catalog.NewAttributeGroup("屈服强度", "602", "冲击功", "75 J"),
			Physical:    catalog.NewAttributeGroup("密度", "7.85 g/cm³"),
		},
	}
}
